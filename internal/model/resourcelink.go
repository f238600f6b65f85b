package model

import (
	"github.com/dokzlo13/huemodel/internal/types"
)

const TagResourceLink = "resourcelink"

var resourceLinkDefinition = Definition{
	Tag:     TagResourceLink,
	Kind:    KindResourceLink,
	Version: 1,
	Schema: types.MustSchema(
		types.UInt16("id", types.Range(1, 65535)),
		types.NewString("name", types.Length(0, 32), types.Optional()),
		types.NewString("description", types.Length(0, 64), types.Optional()),
		types.NewChoice("type", types.Strings("Link"), types.Default("Link")),
		types.UInt16("classid", types.Optional()),
		types.NewString("owner", types.Optional()),
		types.NewBoolean("recycle", types.Optional()),
		types.NewList("links", types.NewString("", types.Length(1, 64)), types.MaxEntries(64), types.Optional()),
	),
	Identified: true,
}

// ResourceLink is the typed view of a resource link entity.
type ResourceLink struct {
	*Entity
}

// NewResourceLink creates an empty resource link with the given id.
func NewResourceLink(id any) (*ResourceLink, error) {
	e, err := NewIdentified(resourceLinkDefinition, id)
	if err != nil {
		return nil, err
	}
	return &ResourceLink{Entity: e}, nil
}

func AsResourceLink(e *Entity) (*ResourceLink, bool) {
	if e == nil || e.Kind() != KindResourceLink {
		return nil, false
	}
	return &ResourceLink{Entity: e}, true
}

func (r *ResourceLink) Name() string { return r.stringValue("name") }

func (r *ResourceLink) ClassID() int { return r.intValue("classid") }

// Links returns the linked resource addresses, e.g. "/lights/1".
func (r *ResourceLink) Links() []string { return r.stringList("links") }

// AddLink appends a resource address.
func (r *ResourceLink) AddLink(address string) error {
	links, _ := r.value("links").([]any)
	return r.Set("links", append(links, address))
}
