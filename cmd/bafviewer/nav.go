package main

import (
	"errors"

	"github.com/iafilius/BinaryAcquisitionViewer/src/pager"
)

// control indexes the widgets whose sensitivity follows the page controller.
type control int

const (
	ctlFirst control = iota
	ctlPrev
	ctlNext
	ctlLast
	ctlZoomIn
	ctlZoomOut
	ctlFit
	ctlPageTime
	ctlCount
)

// toggler is the part of a fyne widget the control table needs.
type toggler interface {
	Enable()
	Disable()
}

// controlTable holds one widget per control; nil entries are skipped.
type controlTable [ctlCount]toggler

// controlStates derives the sensitivity of every control from ctl.
func controlStates(ctl *pager.Controller) [ctlCount]bool {
	open := ctl.IsOpen()
	return [ctlCount]bool{
		ctlFirst:    ctl.CanFirst(),
		ctlPrev:     ctl.CanPrev(),
		ctlNext:     ctl.CanNext(),
		ctlLast:     ctl.CanLast(),
		ctlZoomIn:   open,
		ctlZoomOut:  open,
		ctlFit:      open,
		ctlPageTime: true,
	}
}

func (t *controlTable) sync(ctl *pager.Controller) {
	states := controlStates(ctl)
	for i, w := range t {
		if w == nil {
			continue
		}
		if states[i] {
			w.Enable()
		} else {
			w.Disable()
		}
	}
}

// navigate runs the navigation action of c. Out of range requests are not
// errors here; the buttons are disabled anyway and keys may repeat.
func navigate(ctl *pager.Controller, c control) error {
	var err error
	switch c {
	case ctlFirst:
		err = ctl.First()
	case ctlPrev:
		err = ctl.Prev()
	case ctlNext:
		err = ctl.Next()
	case ctlLast:
		err = ctl.Last()
	default:
		return nil
	}
	if errors.Is(err, pager.ErrPageRange) || errors.Is(err, pager.ErrClosed) {
		return nil
	}
	return err
}
