// Package domain contains the core business entities and domain errors
// for ragdesk. It has no dependencies on other internal packages and
// defines the vocabulary shared by ports, services, and adapters:
// corpus chunks, chat turns, personas, routing decisions, and the
// retrieved context handed to answer generation.
package domain
