package videotest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

// WriteClip encodes frameCount solid colour frames of the given size
// into a temporary MJPG avi file and returns its path.
func WriteClip(frameCount, w, h int) (string, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("dragoneye-%s.avi", uuid.NewString()))

	vw, err := gocv.VideoWriterFile(path, "MJPG", 25, w, h, true)
	if err != nil {
		return "", xerror.Errorf("unable to open test clip writer: %w", err)
	}
	defer vw.Close()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	defer mat.Close()

	for i := 0; i < frameCount; i++ {
		mat.SetTo(gocv.NewScalar(float64((i*40)%255), 128, 64, 0))
		if err := vw.Write(mat); err != nil {
			return "", xerror.Errorf("unable to write test clip frame %d: %w", i, err)
		}
	}

	return path, nil
}
