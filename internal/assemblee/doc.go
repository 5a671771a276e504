// Package assemblee parses deputies of the Assemblée nationale from the
// official open-data archive, with the nosdeputes JSON API as a fallback
// source when the archive is unavailable.
package assemblee
