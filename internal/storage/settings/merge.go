package settings

import "github.com/beevik/etree"

// mergeDefaults copies into live every element of def whose tag is
// missing at the same position. Missing sections are copied whole.
// Copied elements are appended after existing siblings. An existing
// saved networks section is left alone, so removed networks stay removed.
//
// It reports whether live changed.
func mergeDefaults(def, live *etree.Element) bool {
	changed := false
	for _, d := range def.ChildElements() {
		l := live.SelectElement(d.Tag)
		if l == nil {
			live.AddChild(d.Copy())
			changed = true
			continue
		}
		if d.Tag == networksTag || len(d.ChildElements()) == 0 || len(l.ChildElements()) == 0 {
			// Leaf in either tree: the live value wins.
			continue
		}
		if mergeDefaults(d, l) {
			changed = true
		}
	}
	return changed
}
