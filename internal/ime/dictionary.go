package ime

// Dictionary maps a complete spelling to its ordered candidate strings.
// A spelling with no entry yields an empty result. Lookups must not block.
type Dictionary interface {
	Lookup(spelling string) []string
}

// MapDictionary is an in-memory Dictionary.
type MapDictionary map[string][]string

// Lookup returns the candidates for spelling, or nil.
func (d MapDictionary) Lookup(spelling string) []string {
	return d[spelling]
}

// DefaultEntries returns the built-in starter vocabulary.
func DefaultEntries() map[string][]string {
	return map[string][]string{
		"a":   {"啊", "阿", "吖"},
		"ai":  {"爱", "埃", "哎"},
		"an":  {"安", "按", "暗"},
		"ba":  {"八", "爸", "吧"},
		"de":  {"的", "得", "地"},
		"wo":  {"我", "窝", "握"},
		"ni":  {"你", "尼", "呢"},
		"hao": {"好", "号", "毫"},
		"shi": {"是", "时", "事"},
		"ma":  {"吗", "妈", "马"},
	}
}
