// Package integrationtests drives the sosbs command line against temporary
// project trees and checks incremental behaviour across invocations.
package integrationtests
