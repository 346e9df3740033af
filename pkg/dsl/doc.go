/*
Package dsl provides a fluent builder for constructing dialogue graphs in Go
code, as an alternative to loading them from a persisted blob.

It is aimed at tests, examples, and programs that generate dialogue trees
dynamically. Every node built through the DSL passes the same validation the
persistence layer applies, so a graph that builds cleanly here will also load
cleanly there.

Example usage:

	graph, err := dsl.New().
		Node("start", "A stranger approaches").
		Answer("Greet them", dsl.To("greeting"), dsl.Calls("wave")).
		Answer("Walk away").
		Node("greeting", "They smile back").
		Answer("Say goodbye").
		Build()
*/
package dsl
