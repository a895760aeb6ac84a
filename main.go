// =============================================================================
// Timetable - Main Entry Point
// =============================================================================
//
// USAGE:
//   timetable run        - Build the catalogue and fill in venues
//   timetable build      - Build the catalogue from the course export
//   timetable venues     - Fill in venues from the room allotment chart
//   timetable validate   - Check the catalogue on disk
//   timetable xsd        - Print the XML Schema of the XML export
//   timetable version    - Display the application version
//
// LAYOUT:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : catalogue building, venue extraction, I/O
//   - pkg/utils      : file helpers shared by the commands
//
// =============================================================================

package main

import (
	"github.com/itxprashant/IITD-timetable-generator/cmd"
)

func main() {
	cmd.Execute()
}
