package policies

import "context"

// ImageResolver turns a stored image reference into a URL browsers can load.
// References that are already absolute URLs are returned unchanged.
type ImageResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// ResolveAll resolves refs in order. Unresolvable references keep their raw
// value; the first error is returned alongside the result.
func ResolveAll(ctx context.Context, resolver ImageResolver, refs []string) ([]string, error) {
	out := make([]string, 0, len(refs))
	var firstErr error
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if resolver == nil {
			out = append(out, ref)
			continue
		}
		url, err := resolver.Resolve(ctx, ref)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			url = ref
		}
		out = append(out, url)
	}
	return out, firstErr
}
