package bakecontext

// Files maps slash-separated paths relative to the build context root
// to raw file contents.
type Files map[string][]byte

// DeepCopy returns a copy of the file map with copied contents.
func (f Files) DeepCopy() Files {
	newF := Files{}
	for k, v := range f {
		newV := make([]byte, len(v))
		copy(newV, v)
		newF[k] = newV
	}
	return newF
}
