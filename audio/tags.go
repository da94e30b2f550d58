// SPDX-License-Identifier: EPL-2.0

package audio

// Tags is the metadata a container carried next to its audio. The field
// set matches the ID3 fields the encoder writes.
type Tags struct {
	Title   string
	Artist  string
	Album   string
	Year    string
	Comment string
	Track   int
	Genre   string
}

func (t Tags) Empty() bool { return t == Tags{} }

// Tagged is implemented by sources whose container held metadata.
type Tagged interface {
	Tags() Tags
}

// TagsOf returns the tags of src, or zero Tags.
func TagsOf(src Source) Tags {
	if t, ok := src.(Tagged); ok {
		return t.Tags()
	}
	return Tags{}
}
