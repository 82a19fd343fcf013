package jclass

func Fuzz(data []byte) int {
	f, err := NewBytes(data, &Options{Strict: false})
	if err != nil {
		return 0
	}
	err = f.Parse()
	if err != nil {
		return 0
	}
	return 1
}
