package memory

import "github.com/pkg/errors"

// Lowering errors. RegionNotFound is fatal to the compilation; the others
// describe a rejected operation at one site.
var (
	ErrRegionNotFound        = errors.New("region not found")
	ErrSharedUnwrap          = errors.New("shared value has more than one owner")
	ErrUnsupportedConversion = errors.New("unsupported strategy conversion")
	ErrUnresolvedStrategy    = errors.New("memory strategy was not resolved before lowering")
	ErrLinearConsumed        = errors.New("linear value already consumed")
	ErrUnknownHandle         = errors.New("unknown allocation handle")
)
