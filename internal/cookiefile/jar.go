package cookiefile

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Cookie is one stored cookie with everything the Netscape file format
// records. Domain never carries a leading dot; HostOnly distinguishes a
// cookie bound to exactly one host from one shared with subdomains.
type Cookie struct {
	Domain   string
	HostOnly bool
	Path     string
	Secure   bool
	HTTPOnly bool
	Expires  time.Time // zero for session cookies
	Name     string
	Value    string
}

// Session reports whether the cookie has no expiry. Session cookies are kept
// across saves so a login survives process restarts.
func (c Cookie) Session() bool {
	return c.Expires.IsZero()
}

// key identifies a stored cookie. A host-only cookie and a domain cookie for
// the same host, path and name are distinct.
func (c Cookie) key() string {
	scope := "domain"
	if c.HostOnly {
		scope = "host"
	}

	return c.Domain + ";" + c.Path + ";" + c.Name + ";" + scope
}

func (c Cookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

// Jar is an http.CookieJar that, unlike net/http/cookiejar, can enumerate
// every cookie it holds so the whole set can be written back to disk.
type Jar struct {
	mu      sync.Mutex
	entries map[string]Cookie
	now     func() time.Time
}

// New returns an empty Jar.
func New() *Jar {
	return &Jar{
		entries: make(map[string]Cookie),
		now:     time.Now,
	}
}

// SetCookies implements http.CookieJar. Cookies whose Domain attribute does
// not match the request host are rejected, as are domain cookies for a public
// suffix such as "com" unless the suffix is the request host itself, in which
// case the cookie is kept as host-only. Max-Age < 0 or a past Expires removes
// the stored cookie.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	host := strings.ToLower(u.Hostname())
	now := j.now()

	for _, hc := range cookies {
		c := Cookie{
			Name:     hc.Name,
			Value:    hc.Value,
			Secure:   hc.Secure,
			HTTPOnly: hc.HttpOnly,
			Path:     hc.Path,
		}

		domain := strings.TrimPrefix(strings.ToLower(hc.Domain), ".")

		switch {
		case domain == "":
			c.Domain = host
			c.HostOnly = true
		case isPublicSuffix(domain):
			if host != domain {
				continue
			}

			c.Domain = host
			c.HostOnly = true
		case !domainMatch(host, domain):
			continue
		default:
			c.Domain = domain
		}

		if c.Path == "" || c.Path[0] != '/' {
			c.Path = defaultPath(u.Path)
		}

		switch {
		case hc.MaxAge < 0:
			delete(j.entries, c.key())
			continue
		case hc.MaxAge > 0:
			c.Expires = now.Add(time.Duration(hc.MaxAge) * time.Second)
		case !hc.Expires.IsZero():
			c.Expires = hc.Expires
		}

		if c.expired(now) {
			delete(j.entries, c.key())
			continue
		}

		j.entries[c.key()] = c
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	host := strings.ToLower(u.Hostname())
	secure := u.Scheme == "https"
	now := j.now()

	reqPath := u.Path
	if reqPath == "" {
		reqPath = "/"
	}

	var matched []Cookie

	for k, c := range j.entries {
		if c.expired(now) {
			delete(j.entries, k)
			continue
		}

		if c.HostOnly && host != c.Domain {
			continue
		}

		if !c.HostOnly && !domainMatch(host, c.Domain) {
			continue
		}

		if c.Secure && !secure {
			continue
		}

		if !pathMatch(reqPath, c.Path) {
			continue
		}

		matched = append(matched, c)
	}

	// Longer paths first, the order RFC 6265 recommends.
	sort.Slice(matched, func(a, b int) bool {
		if len(matched[a].Path) != len(matched[b].Path) {
			return len(matched[a].Path) > len(matched[b].Path)
		}

		return matched[a].Name < matched[b].Name
	})

	out := make([]*http.Cookie, 0, len(matched))
	for _, c := range matched {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}

	return out
}

// All returns a snapshot of every stored cookie ordered by domain, path and
// name.
func (j *Jar) All() []Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]Cookie, 0, len(j.entries))
	for _, c := range j.entries {
		out = append(out, c)
	}

	sort.Slice(out, func(a, b int) bool {
		return out[a].key() < out[b].key()
	})

	return out
}

// Len returns the number of stored cookies.
func (j *Jar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	return len(j.entries)
}

// add stores c without any request-host checks. Used by the file loader.
func (j *Jar) add(c Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if c.expired(j.now()) {
		return
	}

	j.entries[c.key()] = c
}

func isPublicSuffix(domain string) bool {
	ps, _ := publicsuffix.PublicSuffix(domain)
	return ps == domain
}

func domainMatch(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func pathMatch(reqPath, cookiePath string) bool {
	if reqPath == cookiePath {
		return true
	}

	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}

	return strings.HasSuffix(cookiePath, "/") || reqPath[len(cookiePath)] == '/'
}

// defaultPath is the RFC 6265 section 5.1.4 default-path of a request path.
func defaultPath(p string) string {
	if p == "" || p[0] != '/' {
		return "/"
	}

	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/"
	}

	return p[:i]
}
