package capture

import (
	"encoding/base64"

	"github.com/philipparndt/modelsnap/pkg/normalize"
)

// DefaultFileName is the name a delivered snapshot is saved under
const DefaultFileName = "Model.png"

// Snapshot is a captured frame
type Snapshot struct {
	Ref           string
	PNG           []byte
	Width         int
	Height        int
	Normalization *normalize.Result
}

// DataURL returns the PNG as a download-ready data URL
func (s *Snapshot) DataURL() string {
	return "data:image/octet-stream;base64," + base64.StdEncoding.EncodeToString(s.PNG)
}
