package assets

import "github.com/spaghettifunk/tinyrender/engine/renderer/metadata"

// Loader turns a file on disk into a resource. params is loader specific.
type Loader interface {
	Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error)
	Unload(*metadata.Resource) error
}
