//go:build !unix

package placer

func isEXDEV(error) bool { return false }
