package models

type Tag []string

func (t Tag) Key() string {
	if len(t) > 0 {
		return t[0]
	}

	return ""
}

func (t Tag) Value() string {
	if len(t) > 1 {
		return t[1]
	}

	return ""
}

type Tags []Tag

// FindAll tags with key
func (t Tags) FindAll(key string) Tags {
	result := make(Tags, 0, len(t))
	for _, v := range t {
		if v.Key() == key && len(v) > 1 {
			result = append(result, v)
		}
	}

	return result
}

// Values values of the tags with key, in tag order
func (t Tags) Values(key string) []string {
	tags := t.FindAll(key)
	result := make([]string, 0, len(tags))
	for _, v := range tags {
		result = append(result, v.Value())
	}

	return result
}
