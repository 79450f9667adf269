// Package articlequery answers the article collection query: it validates
// the sort, order, limit and page parameters, checks the optional topic
// filter against the topic registry while the article list is fetched, and
// windows the ordered result into a page with a total count.
//
// Parameter validation happens before any I/O, so a request that is both
// malformed and names an unknown topic is reported as malformed.
package articlequery
