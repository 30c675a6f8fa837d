package html

// Doctype is the HTML5 document type declaration.
const Doctype = "<!DOCTYPE html>"

// DefaultMeta is the content written by [Writer.DefaultMeta].
var DefaultMeta = Group{
	El("meta").Attr("http-equiv", Value("X-UA-Compatible")).
		Attr("content", Value("ie=edge")),
	El("meta").Attr("charset", Value("UTF-8")),
	El("meta").Attr("name", Value("viewport")).
		Attr("content", Value("width=device-width, initial-scale=1.0")),
}

// Doctype writes the HTML5 document type declaration.
func (w *Writer) Doctype() error { return w.Raw(Doctype) }

// DefaultMeta writes the compatibility, charset and viewport meta tags.
func (w *Writer) DefaultMeta() error { return DefaultMeta.Render(w) }

// Root writes <html lang="lang"> and returns it already open for content.
//
// The caller closes it, normally with a deferred [Opening.Release].
func (w *Writer) Root(lang string) (op *Opening, err error) {
	op, err = w.Open("html", CompactabilityOf("html"))
	if err != nil {
		return nil, err
	}

	if err = op.Attr("lang", Value(lang)); err == nil {
		err = op.Content()
	}

	if err != nil {
		op.Release(&err)

		return nil, err
	}

	return op, nil
}

// Document returns content that writes a complete document: the doctype
// followed by an html root in language lang containing body.
func Document(lang string, body ...Content) Content {
	return Func(func(w *Writer) (err error) {
		if err = w.Doctype(); err != nil {
			return err
		}

		root, err := w.Root(lang)
		if err != nil {
			return err
		}

		defer root.Release(&err)

		return w.Render(body...)
	})
}
