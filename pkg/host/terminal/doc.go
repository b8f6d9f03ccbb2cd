// Package terminal hosts forms in an interactive terminal.
//
// Host keeps an in-memory document (see memdom) so forms mount, bind and
// submit exactly as they would in a page. Show then walks the controls of a
// mounted container through a PromptDriver, presses submit and re-asks only
// the fields that came back flagged.
package terminal
