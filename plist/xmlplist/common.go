package xmlplist

const (
	// The doctype of XML plists
	xmlPlistDocType = `DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd"`
	// The version of plists we support
	xmlPlistVersion = "1.0"
)
