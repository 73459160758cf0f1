package minecraft

// ResourcesURL is the asset object CDN
const ResourcesURL = "https://resources.download.minecraft.net/"

// AssetIndex is just a map containing AssetObjects
type AssetIndex struct {
	Objects map[string]AssetObject `json:"objects"`
}

// AssetObject is one minecraft asset
type AssetObject struct {
	Hash string `json:"hash"`
	Size int    `json:"size"`
}

// UnixPath returns the path including the folder
// example: fe/fe32f3b8…
func (a *AssetObject) UnixPath() string {
	return a.Hash[:2] + "/" + a.Hash
}

// DownloadURL returns the download url for this asset
func (a *AssetObject) DownloadURL() string {
	return ResourcesURL + a.UnixPath()
}
