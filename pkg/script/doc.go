/*
Package script loads hearing scripts from YAML or JSON documents.

Documents are decoded leniently: numeric turn ids are accepted, the speaker may
be given under "speaker" or "role", and the role names of the original
courtroom simulator (judge2, judge3, appellant, system, user) are mapped onto
the default cast. Every loaded script is validated before it is returned.

	id: demo
	title: A short hearing
	turns:
	  - id: 1
	    role: judge
	    content: Court is now in session.
	  - id: 2
	    role: user
	    prompt: Enter your opening argument as Defense Counsel.
*/
package script
