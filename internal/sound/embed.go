package sound

import _ "embed"

// defaultBell is the bundled fallback sound.
//
//go:embed assets/bell.wav
var defaultBell []byte
