package domain

// ModelAsset describes the purchased or generated model the product photo is
// composited against. Marketplace listings overload SeedValue to carry the
// backing file id, so resolution has to try it before anything else.
type ModelAsset struct {
	ID        string
	SeedValue string
	FileID    int64
	Price     int
}
