/*
Package dsl provides a fluent Go API for building raw Macrograph graphs.

It is the programmatic counterpart of a graph file: useful for tests, generated macros and
embedding without an editor.

Example usage:

	b := dsl.New("accept-dialog")

	b.Observer("watch").
		Label("dialog appears").
		Region(100, 100, 400, 300, 50).
		Go("accept")

	b.Action("accept").
		Click(320, 280, "left").
		Wait(200 * time.Millisecond).
		Key("enter").
		Go("watch")

	eng, err := macrograph.New(macrograph.WithLoader(b.Build()))
*/
package dsl
