//go:build !nousb

package core

const usbRouting = true
