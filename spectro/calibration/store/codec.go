package store

import (
	"encoding/json"
	"fmt"

	"github.com/cwbudde/algo-spectro/spectro/calibration"
)

func marshal(p calibration.Profile) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("store: encode profile: %w", err)
	}
	return append(data, '\n'), nil
}
