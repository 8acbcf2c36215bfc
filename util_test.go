package seoshop

import (
	"github.com/stretchr/testify/suite"
	"testing"
)

type UtilTestSuite struct {
	suite.Suite
}

func TestUtilTestSuite(t *testing.T) {
	suite.Run(t, new(UtilTestSuite))
}

func (s *UtilTestSuite) TestCanonicalParams() {
	params := map[string]string{
		"token":     "abc",
		"language":  "de",
		"signature": "ignored",
		"shop_id":   "1",
	}
	s.Equal("language=deshop_id=1token=abc", canonicalParams(params))
}

func (s *UtilTestSuite) TestCanonicalParamsSortsWholePairs() {
	// "a-b=2" sorts before "a=1" as a whole string even though "a" < "a-b".
	params := map[string]string{"a": "1", "a-b": "2"}
	s.Equal("a-b=2a=1", canonicalParams(params))
	params = map[string]string{"ab": "1", "a": "z"}
	s.Equal("a=zab=1", canonicalParams(params))
}

func (s *UtilTestSuite) TestCanonicalParamsOrderIndependent() {
	keys := []string{"timestamp", "shop_id", "language", "token", "signature"}
	vals := map[string]string{
		"timestamp": "1446566190",
		"shop_id":   "105504",
		"language":  "de",
		"token":     "6fbcb14e074a6c345f8e7dffe489d9bf",
		"signature": "x",
	}
	exp := canonicalParams(vals)
	for shift := range keys {
		params := map[string]string{}
		for i := range keys {
			k := keys[(i+shift)%len(keys)]
			params[k] = vals[k]
		}
		s.Equal(exp, canonicalParams(params))
		s.Equal(Signature(SchemeMD5, vals, "secret"), Signature(SchemeMD5, params, "secret"))
	}
}

func (s *UtilTestSuite) TestSanitizeShopID() {
	for _, exp := range []string{"1", "105504"} {
		id, err := sanitizeShopID(exp)
		s.NoError(err)
		s.Equal(exp, id)
	}
	for _, exp := range []string{"", "abc", "12 ", "1/../2"} {
		_, err := sanitizeShopID(exp)
		s.Error(err)
	}
}

func (s *UtilTestSuite) TestSanitizeLanguage() {
	for _, exp := range []string{"de", "nl", "en"} {
		lang, err := sanitizeLanguage(exp)
		s.NoError(err)
		s.Equal(exp, lang)
	}
	for _, exp := range []string{"", "DE", "deu", "d", "../de"} {
		_, err := sanitizeLanguage(exp)
		s.Error(err)
	}
}
