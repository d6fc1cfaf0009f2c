package screening

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/publicsuffix"
)

// Features are the lexical properties of a domain name used for screening.
type Features struct {
	FQDNCount       int     `json:"FQDN_count"`
	SubdomainLength int     `json:"subdomain_length"`
	Upper           int     `json:"upper"`
	Lower           int     `json:"lower"`
	Numeric         int     `json:"numeric"`
	Entropy         float64 `json:"entropy"`
	Special         int     `json:"special"`
	Labels          int     `json:"labels"`
	LabelsMax       int     `json:"labels_max"`
	LabelsAverage   float64 `json:"labels_average"`
	LongestWord     string  `json:"longest_word"`
	SLD             string  `json:"sld"`
	Suffix          string  `json:"suffix"`
	Len             int     `json:"len"`
	Subdomain       int     `json:"subdomain"`
}

var wordRe = regexp.MustCompile(`\w+`)

// Entropy is the Shannon entropy of s in bits per character.
func Entropy(s string) float64 {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0
	}
	freq := make(map[rune]int)
	for _, r := range runes {
		freq[r]++
	}
	n := float64(len(runes))
	var h float64
	for _, c := range freq {
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h
}

// Split separates domain into subdomain labels, the registrable label and
// the public suffix.
func Split(domain string) (subdomains []string, sld, suffix string) {
	name := strings.TrimSuffix(strings.ToLower(domain), ".")
	suffix, _ = publicsuffix.PublicSuffix(name)
	etld1, err := publicsuffix.EffectiveTLDPlusOne(name)
	if err != nil {
		return nil, "", suffix
	}
	sld = strings.TrimSuffix(etld1, "."+suffix)
	if rest := strings.TrimSuffix(name, etld1); rest != "" {
		subdomains = strings.Split(strings.TrimSuffix(rest, "."), ".")
	}
	return subdomains, sld, suffix
}

// Extract computes Features for domain.
func Extract(domain string) Features {
	subdomains, sld, suffix := Split(domain)

	f := Features{
		FQDNCount: len(subdomains) + 1,
		Subdomain: len(subdomains),
		Labels:    len(subdomains) + 1,
		Entropy:   Entropy(domain),
		SLD:       sld,
		Suffix:    suffix,
		Len:       len(domain),
	}
	for _, s := range subdomains {
		f.SubdomainLength += len(s)
	}
	for _, r := range domain {
		switch {
		case unicode.IsUpper(r):
			f.Upper++
		case unicode.IsLower(r):
			f.Lower++
		case unicode.IsDigit(r):
			f.Numeric++
		case !unicode.IsLetter(r) && r != '.':
			f.Special++
		}
	}

	if len(subdomains) > 0 {
		labels := append(append([]string(nil), subdomains...), sld, suffix)
		total := 0
		for _, l := range labels {
			total += len(l)
			if len(l) > f.LabelsMax {
				f.LabelsMax = len(l)
			}
		}
		f.LabelsAverage = float64(total) / float64(len(labels))
	}

	for _, w := range wordRe.FindAllString(domain, -1) {
		if len(w) > len(f.LongestWord) {
			f.LongestWord = w
		}
	}
	return f
}
