//go:build nouart

package core

// UART routing compiled out; UART descriptors fail
const uartRouting = false
