package product

import (
	"context"

	"github.com/dagbuild/dagbuild/codediff"
	"github.com/dagbuild/dagbuild/source"
)

// DataOutdated reports whether p is data-outdated (spec section 4.4): its
// own timestamp is null, or any upstream product has a strictly later
// timestamp, or any upstream product is itself (transitively)
// data-outdated. Non-existence is folded into "timestamp is null" by
// FetchMetadata returning Empty for a missing product.
func DataOutdated(ctx context.Context, p Product) (bool, error) {
	md, err := p.FetchMetadata(ctx)
	if err != nil {
		return false, err
	}
	if md.Timestamp == nil {
		return true, nil
	}

	task := p.Task()
	if task == nil {
		return false, nil
	}
	for _, up := range task.UpstreamProducts() {
		upMD, err := up.FetchMetadata(ctx)
		if err != nil {
			return false, err
		}
		if upMD.Timestamp != nil && *upMD.Timestamp > *md.Timestamp {
			return true, nil
		}
		upOutdated, err := DataOutdated(ctx, up)
		if err != nil {
			return false, err
		}
		if upOutdated {
			return true, nil
		}
	}
	return false, nil
}

// CodeOutdated reports whether p's stored source code differs from the
// task's current rendered source under differ's per-language normalization
// (spec section 4.4/4.7). A product with no stored source (never built) is
// code-outdated.
func CodeOutdated(ctx context.Context, differ codediff.Differ, p Product, lang source.Language, rendered string) (bool, error) {
	md, err := p.FetchMetadata(ctx)
	if err != nil {
		return false, err
	}
	if md.StoredSourceCode == nil {
		return true, nil
	}
	return differ.Changed(lang, *md.StoredSourceCode, rendered), nil
}

// Outdated is the combined decision the DAG consults before running a
// task: a product (and thus its task) is outdated iff data-outdated OR
// code-outdated.
func Outdated(ctx context.Context, differ codediff.Differ, p Product, lang source.Language, rendered string) (bool, error) {
	dataOut, err := DataOutdated(ctx, p)
	if err != nil {
		return false, err
	}
	if dataOut {
		return true, nil
	}
	return CodeOutdated(ctx, differ, p, lang, rendered)
}
