package canvas

import (
	"encoding/json"
	"fmt"
	"hash/crc32"
)

// snapshotVersion is bumped when the encoding changes.
const snapshotVersion = 1

type snapshotDoc struct {
	Version int    `json:"v"`
	Width   int    `json:"w"`
	Height  int    `json:"h"`
	Cells   []byte `json:"cells"`
	CRC     uint32 `json:"crc"`
}

// Snapshot encodes the grid contents. An open stroke is not part of it.
func (g *Grid) Snapshot() []byte {
	doc := snapshotDoc{
		Version: snapshotVersion,
		Width:   g.width,
		Height:  g.height,
		Cells:   g.cells,
		CRC:     crc32.ChecksumIEEE(g.cells),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		// Marshal of this fixed shape cannot fail.
		panic(fmt.Sprintf("canvas: encode snapshot: %v", err))
	}
	return data
}

// Restore replaces the grid contents with snap. On failure the grid keeps
// its current contents and the error wraps ErrCorruptSnapshot.
func (g *Grid) Restore(snap []byte) error {
	cells, err := g.decode(snap)
	if err != nil {
		g.logger.Error("canvas restore failed", "error", err)
		return err
	}
	copy(g.cells, cells)
	g.active = nil
	return nil
}

func (g *Grid) decode(snap []byte) ([]byte, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(snap, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if doc.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, doc.Version)
	}
	if doc.Width != g.width || doc.Height != g.height {
		return nil, fmt.Errorf("%w: size %dx%d does not match %dx%d",
			ErrCorruptSnapshot, doc.Width, doc.Height, g.width, g.height)
	}
	if len(doc.Cells) != g.width*g.height {
		return nil, fmt.Errorf("%w: %d cells, want %d", ErrCorruptSnapshot, len(doc.Cells), g.width*g.height)
	}
	if sum := crc32.ChecksumIEEE(doc.Cells); sum != doc.CRC {
		return nil, fmt.Errorf("%w: checksum %08x, want %08x", ErrCorruptSnapshot, sum, doc.CRC)
	}
	return doc.Cells, nil
}
