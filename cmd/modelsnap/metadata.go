package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/philipparndt/modelsnap/pkg/capture"
	"github.com/philipparndt/modelsnap/pkg/geometry"
	"github.com/philipparndt/modelsnap/version"
)

// SnapshotMetadata is written next to a snapshot with --metadata
type SnapshotMetadata struct {
	Version     string      `json:"version"`
	Source      string      `json:"source"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	ScaleFactor float64     `json:"scaleFactor"`
	Translation Vector3Data `json:"translation"`
	BoundsMin   Vector3Data `json:"boundsMin"`
	BoundsMax   Vector3Data `json:"boundsMax"`
}

// Vector3Data represents a 3D vector for JSON serialization
type Vector3Data struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func vectorData(v geometry.Vector3) Vector3Data {
	return Vector3Data{X: v.X, Y: v.Y, Z: v.Z}
}

// metadataPath returns the sidecar file for an image
func metadataPath(imagePath string) string {
	return imagePath + ".json"
}

// saveMetadata writes the normalization of snap next to imagePath
func saveMetadata(imagePath string, snap *capture.Snapshot) error {
	meta := SnapshotMetadata{
		Version: version.GetVersion(),
		Source:  snap.Ref,
		Width:   snap.Width,
		Height:  snap.Height,
	}
	if n := snap.Normalization; n != nil {
		meta.ScaleFactor = n.ScaleFactor
		meta.Translation = vectorData(n.Translation)
		meta.BoundsMin = vectorData(n.Bounds.Min)
		meta.BoundsMax = vectorData(n.Bounds.Max)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(metadataPath(imagePath), data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}
