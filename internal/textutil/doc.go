// Package textutil provides the text normalization and similarity scoring
// primitives used to reconcile submission filenames against roster names.
package textutil
