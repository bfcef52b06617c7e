// Command subsync uploads submission files to cloud storage and records
// the links in a spreadsheet roster.
package main
