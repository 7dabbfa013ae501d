// Package textutil provides text normalization and file name sanitization.
package textutil
