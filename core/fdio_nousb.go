//go:build nousb

package core

// USB CDC routing compiled out; ACM and NCM descriptors fail
const usbRouting = false
