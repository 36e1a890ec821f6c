package lock

// FileID identifies an underlying file object independently of its path.
type FileID struct {
	Dev uint64
	Ino uint64
}

// SameFile reports whether a and b denote the same file.
func SameFile(a, b FileID) bool {
	return a.Dev == b.Dev && a.Ino == b.Ino
}
