/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package eval

import (
	"fmt"

	"golang.org/x/tools/go/packages"
)

// LocateModule returns the root directory of the module that provides
// importPath, as seen from dir (the working directory if empty). Units
// built inside that directory can import the package.
func LocateModule(dir, importPath string) (string, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedModule,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, importPath)
	if err != nil {
		return "", fmt.Errorf("locate module of %s: %w", importPath, err)
	}
	if len(pkgs) == 0 {
		return "", fmt.Errorf("locate module of %s: package not found", importPath)
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return "", fmt.Errorf("locate module of %s: %v", importPath, pkg.Errors[0])
	}
	if pkg.Module == nil || pkg.Module.Dir == "" {
		return "", fmt.Errorf("locate module of %s: not part of a module", importPath)
	}
	return pkg.Module.Dir, nil
}
