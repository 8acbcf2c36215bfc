package seoshop

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const signatureParam = "signature"

var (
	languageRegexp = regexp.MustCompile("^[a-z]{2}$")
	shopIDRegexp   = regexp.MustCompile("^[0-9]+$")
)

// canonicalParams joins every key=value pair except the signature, sorted as
// whole strings.
func canonicalParams(params map[string]string) string {
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		if k == signatureParam {
			continue
		}
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "")
}

func sanitizeShopID(id string) (string, error) {
	if !shopIDRegexp.MatchString(id) {
		return "", fmt.Errorf("malformed shop id: %q", id)
	}
	return id, nil
}

func sanitizeLanguage(lang string) (string, error) {
	if !languageRegexp.MatchString(lang) {
		return "", fmt.Errorf("malformed language: %q", lang)
	}
	return lang, nil
}
