// Package device provides screen and input devices that do not touch the real desktop.
//
// Real screen capture and input injection are platform collaborators supplied by the host.
// These adapters replay recorded frames and log or record input instead, which is what the CLI
// uses for dry runs and what tests use to assert effect order.
package device
