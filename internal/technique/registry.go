package technique

import (
	"fmt"
	"sort"
)

// builders is the closed set of analysis techniques. New techniques are
// added here, not registered at runtime.
var builders = map[string]func() Technique{
	"tensile": func() Technique { return &Tensile{} },
	"tga":     func() Technique { return &TGA{} },
	"dsc":     func() Technique { return &DSC{} },
	"dma":     func() Technique { return &DMA{} },
}

// New returns the analyzer for the named technique.
func New(name string) (Technique, error) {
	fn, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown technique: %s", name)
	}
	return fn(), nil
}

// Names returns all technique names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
