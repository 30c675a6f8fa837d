// Package html writes well-formed HTML5 markup to a stream.
//
// A [Writer] drives each tag through a fixed sequence of states. A tag is
// opened with its start tag, receives attributes, and then either opens for
// content or is closed without any. A tag without content is compacted when
// its element kind is void (<br>) and is otherwise written with an
// immediate end tag (<div></div>).
//
// Every opened tag is closed on every exit path, including failures of the
// underlying sink or of content partway through rendering. On a failure path
// the close is best effort and its own error is discarded, so the caller
// always sees the first error.
//
// Content is composed from [Tag], [Text], [Raw], [Pair], [Group], [Seq] and
// [Func] values and rendered in a single pass:
//
//	page := html.El("ul").Class("menu").
//		Child(html.El("li").Child(html.Text("one"))).
//		Child(html.El("li").Child(html.Text("two")))
//
//	err := html.NewWriter(os.Stdout).Render(page)
//
// Text content is escaped with [TextEscaper] and attribute values with
// [AttrEscaper]. Neither performs any other normalization.
package html
