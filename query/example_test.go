// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package query_test

import (
	"fmt"
	"log"
	"strings"

	"github.com/creachadair/wml/ast"
	"github.com/creachadair/wml/query"
)

const exampleDoc = `
[era]
    id=default
    [multiplayer_side]
        faction=Loyalists
        leader="Lieutenant,Swordsman"
    [/multiplayer_side]
    [multiplayer_side]
        faction=Rebels
        leader="Elvish Captain,Elvish Hero"
    [/multiplayer_side]
[/era]
`

func mustParse(s string) *ast.Node {
	root, err := ast.Parse(strings.NewReader(s))
	if err != nil {
		log.Fatalf("Parse: %v", err)
	}
	return root
}

func Example_path() {
	root := mustParse(exampleDoc)

	n, err := query.First(root, query.Path("era", "multiplayer_side", 1))
	if err != nil {
		log.Fatalf("Eval: %v", err)
	}
	fmt.Println(n.Get("faction"))
	// Output:
	// Rebels
}

func Example_parse() {
	root := mustParse(exampleDoc)

	ns, err := query.Eval(root, query.MustParse(`**/multiplayer_side[?(attrs.faction != 'Rebels')]`))
	if err != nil {
		log.Fatalf("Eval: %v", err)
	}
	for _, v := range query.Values(ns, "leader") {
		fmt.Println(v)
	}
	// Output:
	// Lieutenant,Swordsman
}
