package lang_test

import (
	"context"
	"fmt"
	"os"

	"github.com/ardnew/htmldsl/lang"
)

func Example() {
	ctx := context.Background()

	tmpl, err := lang.ParseString(ctx, `
		ul .menu {
			li { "Home" }
			li { (user) }
		}
		img src="logo.png" {}
	`)
	if err != nil {
		fmt.Println(err)

		return
	}

	err = tmpl.Render(ctx, os.Stdout, map[string]any{"user": "Ann & Bob"})
	if err != nil {
		fmt.Println(err)
	}
	// Output:
	// <ul class="menu"><li>Home</li><li>Ann &amp; Bob</li></ul><img src="logo.png">
}

func ExampleTemplate_Format() {
	ctx := context.Background()

	tmpl, err := lang.ParseString(ctx, `div#main{p{"a"}p;}`)
	if err != nil {
		fmt.Println(err)

		return
	}

	_ = tmpl.Format(ctx, os.Stdout, 2)
	// Output:
	// div id="main" {
	//   p { "a" }
	//   p;
	// }
}
