package baf

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
)

// ToHumanReadable exports the whole of src as a plain-text table written to dst:
// a few '#' comment lines describing the stream, then one line per slice with
// one tab-separated column per channel.
func ToHumanReadable(src, dst string) error {
	in, err := Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	hdr, err := in.ReadHeader()
	if err != nil {
		return err
	}
	tail, err := in.ReadTail()
	if err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "# period: %g s\n", hdr.Period)
	fmt.Fprintf(w, "# channels: %d\n", hdr.Channels)
	fmt.Fprintf(w, "# samples: %d\n", tail.Written)

	line := make([]byte, 0, 32*hdr.Channels)
	var werr error
	err = in.Iterate(0, int64(tail.Written), func(slice []float64) {
		if werr != nil {
			return
		}
		line = line[:0]
		for i, v := range slice {
			if i > 0 {
				line = append(line, '\t')
			}
			line = strconv.AppendFloat(line, v, 'g', -1, 64)
		}
		line = append(line, '\n')
		_, werr = w.Write(line)
	})
	if err == nil {
		err = werr
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", dst, err)
	}
	return nil
}
