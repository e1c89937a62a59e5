package detect

import "github.com/spf13/afero"

func OverloadFS(o afero.Fs) func() {
	fsRef := fs
	fs = o
	return func() { fs = fsRef }
}
