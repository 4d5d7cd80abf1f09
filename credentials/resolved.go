package credentials

// TextProvider identifies an upstream text-generation service.
type TextProvider string

const (
	TextNone       TextProvider = "none"
	TextAPIFree    TextProvider = "apifree"
	TextOpenRouter TextProvider = "openrouter"
	TextGemini     TextProvider = "gemini"
)

// ImageProvider identifies an upstream image-generation service.
type ImageProvider string

const (
	ImageAPIFree      ImageProvider = "apifree"
	ImageReplicate    ImageProvider = "replicate"
	ImagePollinations ImageProvider = "pollinations"
)

// Source records where a resolved value came from.
type Source string

const (
	SourceStored  Source = "stored"
	SourceEnv     Source = "env"
	SourceDefault Source = "default"
)

// Credentials is the immutable result of one Resolve call.
type Credentials struct {
	values  map[string]string
	sources map[string]Source
}

// New builds Credentials directly from values, treating them as stored.
// Model keys missing from values get their catalogue fallback.
func New(values map[string]string) Credentials {
	c := Credentials{values: make(map[string]string), sources: make(map[string]Source)}
	for _, s := range Catalog {
		if v := values[s.Key]; v != "" {
			c.values[s.Key] = v
			c.sources[s.Key] = SourceStored
		} else if s.Fallback != "" {
			c.values[s.Key] = s.Fallback
			c.sources[s.Key] = SourceDefault
		}
	}
	return c
}

// Get returns the resolved value for key and whether it is set.
func (c Credentials) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok && v != ""
}

// Value returns the resolved value for key, or "".
func (c Credentials) Value(key string) string {
	return c.values[key]
}

// Source returns where key's value came from; "" when unset.
func (c Credentials) Source(key string) Source {
	return c.sources[key]
}

// Has reports whether a non-empty value is resolved for key.
func (c Credentials) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// TextProvider returns the preferred chat provider: APIFree when its key is
// present, then OpenRouter, else TextNone. Gemini is only used by callers
// that ask for it explicitly.
func (c Credentials) TextProvider() TextProvider {
	switch {
	case c.Has(KeyAPIFreeAPIKey):
		return TextAPIFree
	case c.Has(KeyOpenRouterAPIKey):
		return TextOpenRouter
	default:
		return TextNone
	}
}

// ImageProviders returns the image attempt order. The order is fixed
// (APIFree, Replicate, Pollinations); providers without credentials are
// skipped and Pollinations is always last.
func (c Credentials) ImageProviders() []ImageProvider {
	var order []ImageProvider
	if c.Has(KeyAPIFreeAPIKey) {
		order = append(order, ImageAPIFree)
	}
	if c.Has(KeyReplicateAPIToken) {
		order = append(order, ImageReplicate)
	}
	return append(order, ImagePollinations)
}
