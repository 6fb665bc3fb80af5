package netclient

import (
	"bufio"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	cookieDomain = iota
	cookieHostOnly
	cookiePath
	cookieSecure
	cookieExpiration
	cookieName
	cookieValue
	cookiePieces
)

// LoadNetscapeCookies parses a Netscape cookies.txt file into jar.
// Malformed lines are skipped.
func LoadNetscapeCookies(jar *cookiejar.Jar, fname string) error {
	file, err := os.Open(fname)
	if err != nil {
		return err
	}
	defer file.Close()

	byDomain := make(map[string][]*http.Cookie)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\t")
		if len(parts) != cookiePieces {
			continue
		}
		// Quoted JSON values are not valid cookie values.
		if strings.Contains(parts[cookieValue], `"`) {
			continue
		}

		domain := strings.ToLower(parts[cookieDomain])
		httpOnly := false
		if strings.HasPrefix(domain, "#httponly_") {
			httpOnly = true
			domain = strings.TrimPrefix(domain, "#httponly_")
		}
		if strings.HasPrefix(domain, "#") {
			continue
		}
		expire, _ := strconv.ParseInt(parts[cookieExpiration], 10, 64)

		byDomain[domain] = append(byDomain[domain], &http.Cookie{
			Domain:   domain,
			Path:     parts[cookiePath],
			Secure:   strings.EqualFold(parts[cookieSecure], "true"),
			Expires:  time.Unix(expire, 0),
			Name:     parts[cookieName],
			Value:    parts[cookieValue],
			HttpOnly: httpOnly,
		})
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	for domain, cookies := range byDomain {
		u, err := url.Parse(fmt.Sprintf("https://%s", strings.TrimPrefix(domain, ".")))
		if err != nil {
			continue
		}
		jar.SetCookies(u, cookies)
	}
	return nil
}
