package logg

// Field keys shared by every component logger.
const (
	Layer     = "layer"
	Operation = "operation"
	Selector  = "selector"
	Kind      = "kind"
	URL       = "url"
	Action    = "action"
	Key       = "key"
	Format    = "format"
	Path      = "path"
	Count     = "count"
)
