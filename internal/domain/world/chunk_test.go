package world

import "testing"

func TestChunkIndexFormula(t *testing.T) {
	// cy * WorldWidthChunks + cx.
	if got := ChunkIndex(0, 0); got != 0 {
		t.Errorf("Expected origin in chunk 0, got %d", got)
	}
	if got := ChunkIndex(ChunkSizePx*3, ChunkSizePx*2); got != 2*WorldWidthChunks+3 {
		t.Errorf("Expected chunk (3,2) = %d, got %d", 2*WorldWidthChunks+3, got)
	}
	// Positions within the same chunk share an index.
	if ChunkIndex(10, 10) != ChunkIndex(ChunkSizePx-1, ChunkSizePx-1) {
		t.Errorf("Expected positions inside one chunk to share an index")
	}
}

func TestNeighborhood9Interior(t *testing.T) {
	got := Neighborhood9(ChunkSizePx*10, ChunkSizePx*10, 256)
	if len(got) != 9 {
		t.Fatalf("Expected a full 3x3 neighborhood, got %d chunks", len(got))
	}
	center := ChunkIndex(ChunkSizePx*10, ChunkSizePx*10)
	found := false
	for _, idx := range got {
		if idx == center {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected the center chunk in its own neighborhood")
	}
}

func TestNeighborhood9ClampsAtCorner(t *testing.T) {
	got := Neighborhood9(0, 0, 256)
	if len(got) != 4 {
		t.Errorf("Expected the origin corner to clamp to 4 chunks, got %d", len(got))
	}
}

func TestDistanceSquared(t *testing.T) {
	if got := DistanceSquared(0, 0, 3, 4); got != 25 {
		t.Errorf("Expected 25, got %v", got)
	}
}
