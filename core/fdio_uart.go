//go:build !nouart

package core

const uartRouting = true
