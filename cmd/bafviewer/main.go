package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/BinaryAcquisitionViewer/cmd/bafviewer/uihelpers"
	"github.com/iafilius/BinaryAcquisitionViewer/src/analysis"
	"github.com/iafilius/BinaryAcquisitionViewer/src/config"
	"github.com/iafilius/BinaryAcquisitionViewer/src/logging"
	"github.com/iafilius/BinaryAcquisitionViewer/src/plot"
	"github.com/iafilius/BinaryAcquisitionViewer/src/session"
	"github.com/iafilius/BinaryAcquisitionViewer/src/spectrum"
)

const (
	zoomStep = 1.5
	panStep  = 0.25
)

type uiState struct {
	app    fyne.App
	window fyne.Window
	cfg    config.Config
	log    *logging.Logger
	sess   *session.Session

	// axis limits of the displayed image; reset to the frame on every page load
	view plot.Viewport

	img       *canvas.Image
	overlay   *crosshairOverlay
	fileLabel *widget.Label
	pageLabel *widget.Label
	pageEntry *widget.Entry
	controls  controlTable

	crosshairEnabled bool
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	var (
		fileFlag        string
		configFlag      string
		levelFlag       string
		pageTimeFlag    string
		screenshotsDir  string
		screenshotPages int
	)
	flag.StringVar(&fileFlag, "file", "", "binary acquisition file to open")
	flag.StringVar(&configFlag, "config", "", "JSON/JSONC configuration file")
	flag.StringVar(&levelFlag, "log-level", "", "debug, info, warn or error (overrides the config)")
	flag.StringVar(&pageTimeFlag, "page-time", "", "page duration, seconds or a Go duration (overrides the config)")
	flag.StringVar(&screenshotsDir, "screenshots", "", "render pages to PNG files in this directory and exit")
	flag.IntVar(&screenshotPages, "screenshot-pages", 3, "number of pages to render in -screenshots mode")
	flag.Parse()
	if fileFlag == "" && flag.NArg() > 0 {
		fileFlag = flag.Arg(0)
	}

	cfg, err := config.Load(config.ExpandHost(configFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "bafviewer: %v\n", err)
		os.Exit(2)
	}
	if pageTimeFlag != "" {
		pt, err := uihelpers.ParsePageTime(pageTimeFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bafviewer: %v\n", err)
			os.Exit(2)
		}
		cfg.PageTimeSeconds = pt
	}
	if levelFlag != "" {
		cfg.LogLevel = levelFlag
	}
	logger := logging.New(os.Stderr)
	logger.SetLevel(cfg.LogLevel)
	if cfg.LogFile != "" {
		if err := logger.OpenFile(config.ExpandHost(cfg.LogFile)); err != nil {
			logger.Warnf("log file: %v", err)
		}
	}
	defer logger.Close()

	if screenshotsDir != "" {
		if err := RunScreenshotsMode(fileFlag, screenshotsDir, screenshotPages, cfg, logger); err != nil {
			logger.Errorf("screenshots: %v", err)
			logger.Close()
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.baf.viewer")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("BAF Viewer")
	w.Resize(fyne.NewSize(1100, 700))

	state := &uiState{
		app:    a,
		window: w,
		cfg:    cfg,
		log:    logger,
		sess:   session.New(logger, cfg.PageTimeSeconds),
	}
	state.sess.Controller().OnFrame(state.onFrame)
	startFile := loadPrefs(state, fileFlag, pageTimeFlag != "")

	state.fileLabel = widget.NewLabel("No file")
	state.fileLabel.Truncation = fyne.TextTruncateEllipsis
	state.pageLabel = widget.NewLabel(state.sess.PageLabel())

	w0, h0 := uihelpers.ComputeChartDimensions(1100)
	state.img = canvas.NewImageFromImage(plot.Blank(w0, h0))
	state.img.FillMode = canvas.ImageFillContain
	state.img.SetMinSize(fyne.NewSize(800, 320))
	state.overlay = newCrosshairOverlay(state)

	state.pageEntry = widget.NewEntry()
	state.pageEntry.SetText(uihelpers.FormatSeconds(state.sess.Controller().PageTime()))
	state.pageEntry.OnSubmitted = func(s string) { applyPageTime(state, s) }

	navButton := func(icon fyne.Resource, c control) *widget.Button {
		return widget.NewButtonWithIcon("", icon, func() { doNavigate(state, c) })
	}
	firstBtn := navButton(theme.MediaSkipPreviousIcon(), ctlFirst)
	prevBtn := navButton(theme.NavigateBackIcon(), ctlPrev)
	nextBtn := navButton(theme.NavigateNextIcon(), ctlNext)
	lastBtn := navButton(theme.MediaSkipNextIcon(), ctlLast)
	zoomInBtn := widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() { state.zoom(zoomStep, zoomStep) })
	zoomOutBtn := widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() { state.zoom(1/zoomStep, 1/zoomStep) })
	fitBtn := widget.NewButtonWithIcon("", theme.ZoomFitIcon(), func() { state.fit() })
	state.controls = controlTable{
		ctlFirst:    firstBtn,
		ctlPrev:     prevBtn,
		ctlNext:     nextBtn,
		ctlLast:     lastBtn,
		ctlZoomIn:   zoomInBtn,
		ctlZoomOut:  zoomOutBtn,
		ctlFit:      fitBtn,
		ctlPageTime: state.pageEntry,
	}

	crosshairChk := widget.NewCheck("Crosshair", func(b bool) {
		state.crosshairEnabled = b
		state.overlay.setEnabled(b)
		savePrefs(state)
	})
	crosshairChk.SetChecked(state.crosshairEnabled)

	pageTimeBox := container.NewHBox(widget.NewLabel("Page time (s):"), container.NewGridWrap(fyne.NewSize(90, state.pageEntry.MinSize().Height), state.pageEntry))
	toolbar := container.NewHBox(
		firstBtn, prevBtn, state.pageLabel, nextBtn, lastBtn,
		widget.NewSeparator(),
		zoomInBtn, zoomOutBtn, fitBtn,
		widget.NewSeparator(),
		pageTimeBox,
		crosshairChk,
	)
	top := container.NewVBox(toolbar, state.fileLabel)
	chart := container.NewStack(state.img, state.overlay)
	w.SetContent(container.NewBorder(top, nil, nil, nil, chart))

	buildMenus(state)
	bindKeys(state)

	// Redraw on window resize so the chart follows the width
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			if err := state.sess.Close(); err != nil {
				state.log.Warnf("close: %v", err)
			}
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					curW := int(c.Size().Width)
					if curW != prevW {
						prevW = curW
						fyne.Do(func() { redraw(state) })
					}
				}
			}
		}()
	}

	if startFile != "" {
		openPath(state, startFile)
	} else {
		redraw(state)
	}
	w.ShowAndRun()
}

// onFrame runs after every page load.
func (state *uiState) onFrame(f plot.Frame) {
	state.view.Fit(f)
	redraw(state)
}

func (state *uiState) zoom(fx, fy float64) {
	if !state.sess.IsOpen() {
		return
	}
	state.view.ZoomX(fx)
	state.view.ZoomY(fy)
	redraw(state)
}

func (state *uiState) pan(dx, dy float64) {
	if !state.sess.IsOpen() {
		return
	}
	state.view.PanX(dx)
	state.view.PanY(dy)
	redraw(state)
}

func (state *uiState) fit() {
	state.view.Fit(state.sess.Frame())
	redraw(state)
}

// chartSize derives the image size from the window width.
func chartSize(state *uiState) (int, int) {
	raw := 1100
	if state != nil && state.window != nil && state.window.Canvas() != nil {
		if cw := int(state.window.Canvas().Size().Width); cw > 0 {
			raw = cw - 24
		}
	}
	return uihelpers.ComputeChartDimensions(raw)
}

// redraw renders the displayed page and syncs labels and controls.
func redraw(state *uiState) {
	if state == nil || state.img == nil {
		return
	}
	w, h := chartSize(state)
	f := state.sess.Frame()
	opts := plot.Options{Width: w, Height: h, Label: state.sess.PageLabel()}
	if state.view.Valid() {
		opts.View = &state.view
	}
	img, err := plot.ChartRenderer{}.Image(f, opts)
	if err != nil {
		if !errors.Is(err, plot.ErrNoData) {
			state.log.Errorf("render page: %v", err)
		}
		img = plot.Blank(w, h)
	}
	state.img.Image = img
	state.img.Refresh()
	if state.overlay != nil {
		state.overlay.Refresh()
	}
	state.pageLabel.SetText(state.sess.PageLabel())
	if state.sess.IsOpen() {
		state.fileLabel.SetText(formatFileInfo(state.sess.Path(),
			state.sess.Header(), state.sess.Tail().Written, state.sess.File().Size()))
		if state.window != nil {
			state.window.SetTitle("BAF Viewer - " + uihelpers.TruncatePath(state.sess.Path(), 60))
		}
	} else {
		state.fileLabel.SetText("No file")
		if state.window != nil {
			state.window.SetTitle("BAF Viewer")
		}
	}
	state.controls.sync(state.sess.Controller())
}

func doNavigate(state *uiState, c control) {
	if err := navigate(state.sess.Controller(), c); err != nil {
		state.log.Errorf("navigate: %v", err)
		showError(state, err)
	}
}

func applyPageTime(state *uiState, text string) {
	ctl := state.sess.Controller()
	pt, err := uihelpers.ParsePageTime(text)
	if err == nil {
		err = ctl.SetPageTime(pt)
	}
	if err != nil {
		state.log.Warnf("page time: %v", err)
		state.pageEntry.SetText(uihelpers.FormatSeconds(ctl.PageTime()))
		showError(state, err)
		return
	}
	state.pageEntry.SetText(uihelpers.FormatSeconds(ctl.PageTime()))
	savePrefs(state)
	redraw(state)
}

func showError(state *uiState, err error) {
	if state.window != nil {
		dialog.ShowError(err, state.window)
	}
}

func buildMenus(state *uiState) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	var items []*fyne.MenuItem
	for _, f := range recentFiles(prefs) {
		f := f
		items = append(items, fyne.NewMenuItem(uihelpers.TruncatePath(f, 60), func() { openPath(state, f) }))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentFiles(prefs); buildMenus(state) })
	recentMenu := fyne.NewMenu("Open Recent", append(items, clearRecent)...)
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() { openFileDialog(state) }),
		fyne.NewMenuItem("Reload", func() { reload(state) }),
		fyne.NewMenuItem("Close", func() { closeFile(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export as Text…", func() { exportText(state) }),
		fyne.NewMenuItem("Export Page Image…", func() { exportImage(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("First Page", func() { doNavigate(state, ctlFirst) }),
		fyne.NewMenuItem("Previous Page", func() { doNavigate(state, ctlPrev) }),
		fyne.NewMenuItem("Next Page", func() { doNavigate(state, ctlNext) }),
		fyne.NewMenuItem("Last Page", func() { doNavigate(state, ctlLast) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Fit", func() { state.fit() }),
	)
	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Statistics…", func() { showStats(state) }),
		fyne.NewMenuItem("Spectrum…", func() { showSpectrum(state) }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, recentMenu, viewMenu, toolsMenu))

	canv := state.window.Canvas()
	if canv != nil {
		for _, mod := range []fyne.KeyModifier{fyne.KeyModifierSuper, fyne.KeyModifierControl} {
			for key, action := range fileShortcuts(state) {
				canv.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(fyne.Shortcut) { action() })
			}
		}
	}
}

// fileShortcuts lists the Cmd/Ctrl bindings of the File menu. W closes the
// file, not the window; Quit has no shortcut.
func fileShortcuts(state *uiState) map[fyne.KeyName]func() {
	return map[fyne.KeyName]func(){
		fyne.KeyO: func() { openFileDialog(state) },
		fyne.KeyR: func() { reload(state) },
		fyne.KeyW: func() { closeFile(state) },
	}
}

// bindKeys maps plain keys to navigation and view changes.
func bindKeys(state *uiState) {
	canv := state.window.Canvas()
	if canv == nil {
		return
	}
	canv.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyHome:
			doNavigate(state, ctlFirst)
		case fyne.KeyPageUp:
			doNavigate(state, ctlPrev)
		case fyne.KeyPageDown:
			doNavigate(state, ctlNext)
		case fyne.KeyEnd:
			doNavigate(state, ctlLast)
		case fyne.KeyLeft:
			state.pan(-panStep, 0)
		case fyne.KeyRight:
			state.pan(panStep, 0)
		case fyne.KeyUp:
			state.pan(0, panStep)
		case fyne.KeyDown:
			state.pan(0, -panStep)
		case fyne.KeyEqual:
			state.zoom(zoomStep, zoomStep)
		case fyne.KeyMinus:
			state.zoom(1/zoomStep, 1/zoomStep)
		case fyne.Key0:
			state.fit()
		}
	})
}

// file open dialog
func openFileDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		openPath(state, path)
	}, state.window)
	d.Show()
}

// openPath opens path in the session. A file that fails to open leaves the
// previous one displayed.
func openPath(state *uiState, path string) {
	if err := state.sess.Open(path); err != nil {
		state.log.Errorf("open %s: %v", path, err)
		if errors.Is(err, session.ErrNotBAF) {
			err = fmt.Errorf("%s is not a valid binary acquisition file", filepath.Base(path))
		}
		showError(state, err)
		redraw(state)
		return
	}
	if state.app != nil {
		addRecentFile(state.app.Preferences(), path)
		buildMenus(state)
	}
	savePrefs(state)
	redraw(state)
}

func reload(state *uiState) {
	if !state.sess.IsOpen() {
		return
	}
	if err := state.sess.Controller().Reload(); err != nil {
		state.log.Errorf("reload: %v", err)
	}
}

func closeFile(state *uiState) {
	if err := state.sess.Close(); err != nil {
		state.log.Warnf("close: %v", err)
	}
	state.view = plot.Viewport{}
	savePrefs(state)
	redraw(state)
}

func baseName(state *uiState) string {
	return strings.TrimSuffix(filepath.Base(state.sess.Path()), filepath.Ext(state.sess.Path()))
}

func exportText(state *uiState) {
	if !state.sess.IsOpen() {
		return
	}
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		path := wc.URI().Path()
		wc.Close()
		if err := state.sess.Export(path); err != nil {
			showError(state, err)
			return
		}
		dialog.ShowInformation("Export", "Wrote "+path, state.window)
	}, state.window)
	d.SetFileName(baseName(state) + ".txt")
	d.Show()
}

// exportImage saves the displayed page with the current zoom; the renderer
// from the config is used for PNG, vector formats go through gonum/plot.
func exportImage(state *uiState) {
	if !state.sess.IsOpen() {
		return
	}
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		path := wc.URI().Path()
		wc.Close()
		o := plot.Options{
			Width:  state.cfg.ChartWidth,
			Height: state.cfg.ChartHeight,
			Title:  filepath.Base(state.sess.Path()),
		}
		if state.view.Valid() {
			v := state.view
			o.View = &v
		}
		if err := state.sess.SaveImage(path, state.cfg.Renderer, o); err != nil {
			state.log.Errorf("export image: %v", err)
			showError(state, err)
		}
	}, state.window)
	d.SetFileName(fmt.Sprintf("%s_p%d.png", baseName(state), state.sess.Controller().CurrentPage()))
	d.Show()
}

func showStats(state *uiState) {
	if !state.sess.IsOpen() {
		return
	}
	sum, err := state.sess.Stats(analysis.Options{VerifyChecksum: true})
	if err != nil {
		state.log.Errorf("stats: %v", err)
		showError(state, err)
		if len(sum.Channels) == 0 {
			return
		}
	}
	text := widget.NewLabel(formatStats(sum))
	text.TextStyle = fyne.TextStyle{Monospace: true}
	dialog.ShowCustom("Statistics: "+filepath.Base(state.sess.Path()), "Close", container.NewVScroll(text), state.window)
}

// showSpectrum opens a window with the amplitude spectrum of the displayed page.
func showSpectrum(state *uiState) {
	if !state.sess.IsOpen() {
		return
	}
	specs, err := state.sess.Spectrum(spectrum.ParseWindow(state.cfg.Window))
	if err != nil {
		state.log.Errorf("spectrum: %v", err)
		showError(state, err)
		return
	}
	w, h := chartSize(state)
	img, err := plot.ChartRenderer{}.Image(spectrum.AsFrame(specs), plot.Options{
		Width: w, Height: h,
		Title: "Spectrum " + state.sess.PageLabel(),
	})
	if err != nil {
		showError(state, err)
		return
	}
	ci := canvas.NewImageFromImage(img)
	ci.FillMode = canvas.ImageFillContain
	ci.SetMinSize(fyne.NewSize(float32(w)/1.5, float32(h)/1.5))
	peaks := widget.NewLabel(formatPeaks(specs))
	peaks.TextStyle = fyne.TextStyle{Monospace: true}

	sw := state.app.NewWindow("Spectrum: " + filepath.Base(state.sess.Path()))
	sw.SetContent(container.NewBorder(nil, peaks, nil, nil, ci))
	sw.Resize(fyne.NewSize(float32(w), float32(h)+120))
	sw.Show()
}
