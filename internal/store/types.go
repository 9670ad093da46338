package store

import "time"

type TypeSeed struct {
	Kind   string
	Family string
	Name   string
}

type ElementType struct {
	ID         int64
	Kind       string
	Family     string
	Name       string
	Dimensions map[string]float64
}

type ElementTypeInput struct {
	Kind       string
	Family     string
	Name       string
	Dimensions map[string]float64
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type ElementInput struct {
	GUID       string
	Kind       string
	TypeID     int64
	LevelID    int64
	X          float64
	Y          float64
	Z          float64
	Rotation   float64
	LengthMM   float64
	BaseOffset float64
	TopOffset  float64
	Boundary   []Point
}

// Tag is the stored counterpart of the adapter tag metadata. Fallback
// labels are empty when the element used its intended family.
type Tag struct {
	GUID             string
	SourceClass      string
	TypeName         string
	Material         string
	Timestamp        time.Time
	IsOrphan         bool
	FallbackIntended string
	FallbackUsed     string
}

type TaggedElement struct {
	ElementID int64
	Tag       Tag
}

type ElementRow struct {
	ID        int64
	GUID      string
	Kind      string
	TypeName  string
	LevelName string
	Material  string
	X         float64
	Y         float64
	Z         float64
	IsOrphan  bool
}

type LevelRow struct {
	ID          int64
	Name        string
	ElevationMM float64
}

// RunRecord is one pipeline run: identifier, timing, and the JSON-encoded
// summary as reported to the user.
type RunRecord struct {
	ID        string
	StartedAt time.Time
	ElapsedMS int64
	Summary   string
}
