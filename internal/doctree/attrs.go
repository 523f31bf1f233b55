package doctree

import "strings"

// Attr returns the value of the attribute key.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (n *Node) HasAttr(key string) bool {
	_, ok := n.Attr(key)
	return ok
}

// SetAttr sets or replaces the attribute key.
func (n *Node) SetAttr(key, val string) {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Val = val
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
}

func (n *Node) RemoveAttr(key string) {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

func (n *Node) HasClass(class string) bool {
	v, _ := n.Attr("class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func (n *Node) AddClass(class string) {
	if class == "" || n.HasClass(class) {
		return
	}
	v, _ := n.Attr("class")
	n.SetAttr("class", strings.TrimSpace(v+" "+class))
}

// RemoveClass drops class from the class list. The attribute is removed once
// the list is empty.
func (n *Node) RemoveClass(class string) {
	v, ok := n.Attr("class")
	if !ok {
		return
	}
	var kept []string
	for _, c := range strings.Fields(v) {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		n.RemoveAttr("class")
		return
	}
	n.SetAttr("class", strings.Join(kept, " "))
}

// Style returns the value of one declaration of the inline style attribute.
func (n *Node) Style(property string) string {
	v, _ := n.Attr("style")
	for _, decl := range strings.Split(v, ";") {
		name, val, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), property) {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// SetStyle sets one declaration of the inline style attribute, keeping the
// others in place.
func (n *Node) SetStyle(property, value string) {
	v, _ := n.Attr("style")
	var decls []string
	found := false
	for _, decl := range strings.Split(v, ";") {
		if strings.TrimSpace(decl) == "" {
			continue
		}
		name, _, _ := strings.Cut(decl, ":")
		if strings.EqualFold(strings.TrimSpace(name), property) {
			if found {
				continue
			}
			found = true
			decl = property + ": " + value
		}
		decls = append(decls, strings.TrimSpace(decl))
	}
	if !found {
		decls = append(decls, property+": "+value)
	}
	n.SetAttr("style", strings.Join(decls, "; ")+";")
}
