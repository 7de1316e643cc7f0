// Package cluster groups matching records into duplicate clusters using
// blocking and union-find connected components. Transitive matches land
// in the same cluster even when the endpoints never matched directly.
package cluster
