package token

import "github.com/google/uuid"

// FileID uniquely identifies a source file within one analysis run. A
// fresh FileID is minted per file that is read, including files pulled in
// transitively via `.include`.
type FileID uuid.UUID

// NewFileID mints a fresh identity. Kept as a function (not a bare
// uuid.New() call at each site) so every identity-minting point in the
// codebase is easy to find.
func NewFileID() FileID {
	return FileID(uuid.New())
}

func (f FileID) String() string {
	return uuid.UUID(f).String()
}

// File pairs a FileID with the path it was resolved from and its text.
// The lexer and parser take a FileID and the text separately, not a File.
type File struct {
	ID   FileID
	Path string
	Text string
}
