package identity

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// FromJWTClaims maps validated token claims onto a principal authenticated
// with authType. "sub" becomes the name-identifier claim and "name" the
// name claim; every other claim is carried under its own key. Array claims
// produce one Claim per element.
func FromJWTClaims(claims jwt.MapClaims, authType string) *Principal {
	if claims == nil {
		return Anonymous()
	}
	p := &Principal{AuthenticationType: authType}
	for _, key := range slices.Sorted(maps.Keys(claims)) {
		claimType := key
		switch key {
		case "sub":
			claimType = ClaimTypeNameIdentifier
		case "name":
			claimType = ClaimTypeName
		}
		switch v := claims[key].(type) {
		case nil:
		case string:
			p.Claims = append(p.Claims, Claim{Type: claimType, Value: v})
		case float64:
			p.Claims = append(p.Claims, Claim{Type: claimType, Value: strconv.FormatFloat(v, 'f', -1, 64)})
		case []any:
			for _, item := range v {
				p.Claims = append(p.Claims, Claim{Type: claimType, Value: fmt.Sprint(item)})
			}
		case []string:
			for _, item := range v {
				p.Claims = append(p.Claims, Claim{Type: claimType, Value: item})
			}
		default:
			p.Claims = append(p.Claims, Claim{Type: claimType, Value: fmt.Sprint(v)})
		}
	}
	return p
}
