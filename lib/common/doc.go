// Package common provides the pieces shared by the command line and the HTTP API:
// the logger that is plugged into the dragonboat logging facade and the
// configuration structs of the serve and encode commands.
package common
