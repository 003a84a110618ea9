package model

// Link is a hidden element connecting a source and a target element.
type Link interface {
	Element

	Source() Element
	Target() Element
	// SetSource detaches the link from the previous source and attaches
	// it to e. A nil e leaves the end unset.
	SetSource(e Element)
	// SetTarget detaches the link from the previous target and attaches
	// it to e. A nil e leaves the end unset.
	SetTarget(e Element)
	// Swap exchanges source and target. Directed links refuse and return
	// false.
	Swap() bool
	IsDirected() bool
}

// Labels are the text fragments a link exposes to presentation layers.
type Labels struct {
	Name               string
	SourceRole         string
	SourceMultiplicity string
	TargetRole         string
	TargetMultiplicity string
}

// Labeled is implemented by links that carry displayable text.
type Labeled interface {
	Labels() Labels
}

// LinkBase implements [Link] for embedding kinds.
type LinkBase struct {
	Base
	source Element
	target Element
}

func (l *LinkBase) link() Link {
	if ll, ok := l.self.(Link); ok {
		return ll
	}
	return nil
}

// IsHidden always reports true: links never appear as ordinary tree children.
func (l *LinkBase) IsHidden() bool { return true }

// IsLink always reports true.
func (l *LinkBase) IsLink() bool { return true }

// IsDirected reports false; directed kinds override it.
func (l *LinkBase) IsDirected() bool { return false }

func (l *LinkBase) Source() Element { return l.source }

func (l *LinkBase) Target() Element { return l.target }

func (l *LinkBase) SetSource(e Element) {
	l.source = l.reattach(l.source, e)
}

func (l *LinkBase) SetTarget(e Element) {
	l.target = l.reattach(l.target, e)
}

func (l *LinkBase) reattach(old, next Element) Element {
	self := l.link()
	if old != nil && old != next && old != l.other(old) {
		old.Unlink(self)
	}
	if next != nil {
		next.LinkTo(self)
	}
	return next
}

// other returns the end that is not being replaced, so that a link whose
// source and target are the same element stays attached when only one end
// moves.
func (l *LinkBase) other(end Element) Element {
	if end == l.source {
		return l.target
	}
	return l.source
}

func (l *LinkBase) Swap() bool {
	self := l.link()
	if self == nil || self.IsDirected() {
		return false
	}
	l.source, l.target = l.target, l.source
	return true
}

// OnDispose detaches both ends.
func (l *LinkBase) OnDispose() {
	l.SetSource(nil)
	l.SetTarget(nil)
}

// Serialize adds both endpoints, stored by identifier. On read they are
// resolved through the archive's resolver; an unknown identifier fails the
// read with the raw identifier in the error.
func (l *LinkBase) Serialize(a *Archive) error {
	if err := l.Base.Serialize(a); err != nil {
		return err
	}
	src, dst := l.source, l.target
	a.Ref("source", &src)
	a.Ref("target", &dst)
	if a.Reading() && a.Err() == nil {
		l.SetSource(src)
		l.SetTarget(dst)
	}
	return a.Err()
}
