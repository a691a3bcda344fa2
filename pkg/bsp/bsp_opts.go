package bsp

// Option configures Load and Open.
type Option func(*options)

type options struct {
	partitions map[string][]byte
}

// WithPartition attaches the raw bytes of an entity partition file (the
// "env" in mp_drydock_env.ent). Locating the file is up to the caller.
func WithPartition(name string, raw []byte) Option {
	return func(o *options) {
		if o.partitions == nil {
			o.partitions = make(map[string][]byte)
		}
		o.partitions[name] = raw
	}
}
