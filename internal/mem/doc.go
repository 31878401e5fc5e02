// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides cache-line aligned heap allocation for arena chunks on platforms
// without anonymous memory mappings.
package mem
