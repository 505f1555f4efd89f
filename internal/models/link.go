package models

import "strconv"

// Link is a crawl frontier entry: an address plus its hop count from the seed.
// Dedup identity is the normalized address, never the depth.
type Link struct {
	Address string `json:"address"`
	Depth   int    `json:"depth"`
}

// Child returns the link discovered one hop below l.
func (l Link) Child(address string) Link {
	return Link{Address: address, Depth: l.Depth + 1}
}

func (l Link) String() string {
	return l.Address + "@" + strconv.Itoa(l.Depth)
}
