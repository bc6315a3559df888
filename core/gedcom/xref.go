package gedcom

// resolve rewrites pointer-valued fields into validated links against the
// document's id index. A dangling reference is reported but the node is
// never removed; the pointer field simply stays unresolved.
func resolve(doc *Document, e *engine) {
	sev := SeverityError
	if doc.Mode == Relaxed {
		sev = SeverityWarning
	}

	var walk func(r *Record)
	walk = func(r *Record) {
		if r.IsPointer() {
			if target, ok := doc.index[r.Value]; ok {
				r.Target = target
			} else {
				e.add(sev, KindCrossReference, r.Line, "dangling reference %s", r.Value)
			}
		}
		for _, c := range r.Children {
			walk(c)
		}
	}
	for _, r := range doc.Records {
		walk(r)
	}
}
