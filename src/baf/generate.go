package baf

// Generate writes a complete file of n slices to path. fill is called once per
// slice index with a zeroed slice of hdr.Channels values to populate.
func Generate(path string, hdr Header, n int, fill func(i int, slice []float64)) error {
	w, err := Create(path, hdr)
	if err != nil {
		return err
	}
	slice := make([]float64, hdr.Channels)
	for i := 0; i < n; i++ {
		for c := range slice {
			slice[c] = 0
		}
		fill(i, slice)
		if err := w.WriteSlice(slice); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
