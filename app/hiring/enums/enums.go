// Package enums provides type-safe enumeration types for the hiring domain.
//
// Enum types are declared here as unexported integer types and the go:generate
// directive runs go-pkgz/enum to produce the exported types (*_enum.go) with
// String, Parse*, Must*, text marshaling and Scan/Value methods. Trailing comments
// on the constants set the display names, which are also the persisted format:
//
//	status := enums.StatusAccepted
//	fmt.Println(status) // "Accepted"
//
//	parsed, err := enums.ParseStatus("Under Review")
//	if err != nil {
//	    // handle invalid input
//	}
//
// To regenerate the enum types after modifications:
//
//	go generate ./app/hiring/enums
//
// Note: the unexported type definitions below are only used by the generator.
// All actual code should use the generated exported types.
package enums

//go:generate go run github.com/go-pkgz/enum@latest -type status

// status represents candidate position in the hiring pipeline.
// This is an unexported type used only as input for the code generator.
// Use the exported Status type and its constants in actual code.
type status int

const (
	statusUnderReview status = iota // Under Review
	statusAccepted                  // Accepted
	statusRejected                  // Rejected
)
